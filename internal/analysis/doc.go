// Package analysis holds signal tools for joint time series.
package analysis
