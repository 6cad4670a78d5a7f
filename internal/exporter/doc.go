// Package exporter writes unified job events as delimited text.
//
// The output always has the header
//
//	city_id,zone,ts,user_type,jobs_like,source_sheet
//
// with timestamps formatted as 2006-01-02T15:04:05Z and jobs_like as a float
// with at least one decimal place.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger, exporter.WriteOptions{})
//	n, err := w.WriteEvents("docker/db/init/jobs_like.csv", events)
package exporter
