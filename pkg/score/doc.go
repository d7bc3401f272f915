// Package score computes the per-article signals (sentiment, recency,
// engagement) and combines them into a priority using category and
// location weight tables.
package score
