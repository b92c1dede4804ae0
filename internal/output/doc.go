// Package output delivers decoded sensor records to their consumers.
//
// A Sink takes decoded records one at a time; implementations write
// JSON lines to a stream, publish to an MQTT broker, or fan out to
// several sinks at once. Sinks are deliberately dumb: they do not
// filter, deduplicate, or buffer. Anything that decodes is delivered.
package output
