// Package process runs workflow commands as subprocesses.
//
// Run captures output, optionally tees it to live writers, and terminates
// the whole process group on cancellation: SIGTERM first, SIGKILL after
// the grace period. Adapter layers configured defaults, per-attempt
// timeouts and retries on top of Run.
package process
