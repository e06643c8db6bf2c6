// Package scheduler provides the two timer shapes the listing engine needs:
// a supersedable one-shot Timer for flush debouncing and cron-backed
// Intervals for heartbeat and inventory refresh.
package scheduler
