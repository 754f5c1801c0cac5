// Command shelfsort classifies files into category folders.
//
// The sort command scans the configured source directory, records a task in
// the ledger, and drives it to completion in batches. Interrupted tasks keep
// their committed progress and can be picked up again with resume. The tasks
// and records commands inspect the ledger without starting a run.
package main
