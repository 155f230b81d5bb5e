// Package pipeline wires the podcast stages together: chunking and
// summarization of long sources, script generation, dialogue segmentation,
// per-segment speech synthesis, audio assembly, and history recording.
//
// Script generation failures fail the request. Everything after the script is
// best-effort: when the audio stage fails the caller still receives the
// script, with Response.AudioError describing what went wrong.
package pipeline
