// Package notify serializes desktop notifications through one worker.
//
// Requests are queued in order and handed to the host one at a time; a
// failed delivery is logged, recorded in the history ring and followed by a
// short fixed pause. Nothing is retried.
package notify
