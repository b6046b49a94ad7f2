// Package backend owns the lifecycle of the bundled transcription backend
// process. It spawns the backend with a repaired executable search path,
// guards against duplicate launches (including an already-listening instance
// left over from a previous session), relays the child's output and
// termination events to the host's logging, and tears the child down when
// the window session ends.
//
// The Supervisor holds the single child slot. At most one non-terminated
// child exists at any time; duplicate start requests are rejected, not
// queued. Stopping is best-effort and always safe, including when nothing
// is running.
package backend
