// Package reminder turns free-form time expressions into scheduled
// notifications.
//
// A Scheduler owns a Store and a single goroutine that sleeps until the
// nearest due time. Cancelling marks the pending firing so a cancelled
// reminder is never delivered, even when its due time has just passed.
package reminder
