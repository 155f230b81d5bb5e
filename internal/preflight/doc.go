// Package preflight provides readiness checks for the directories and
// external services podcaster depends on.
//
// The daemon runs RunAll at startup and reports the results on /api/status;
// "podcaster check" prints them as a table. Provider checks only contact the
// API when live checks are requested.
package preflight
