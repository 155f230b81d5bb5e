// Package daemon hosts the long-running podcaster server: it enforces a
// single instance through a lock file, sweeps stale staging directories,
// runs preflight checks, and serves the HTTP API.
//
// Routes:
//
//	POST /api/podcast        generate a podcast (podcast.Request body)
//	GET  /api/podcasts       list history, newest first (?limit=N)
//	GET  /api/podcasts/{id}  one episode with its transcript
//	GET  /api/voices         supported voices and modes
//	GET  /api/status         daemon status and preflight results
//	GET  <audio prefix>/     generated audio (local storage only)
package daemon
