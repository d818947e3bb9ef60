// Package monitor implements the poll loop of the daemon: read the probe,
// evaluate the reading against the dryness threshold, and send an alert on
// the wet-to-dry transition. The loop is single-threaded and ticker-driven,
// and runs until its context is canceled or an iteration fails.
package monitor
