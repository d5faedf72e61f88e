// Package bot is the Discord-facing dispatcher of the release calendar.
//
// It exposes two entrypoints that both run the release pipeline once per call:
//   - the `releases` slash command: acknowledged immediately with a deferred
//     ephemeral response, then edited with the summary or an explanatory
//     message;
//   - the scheduled digest: a cron job posting today's summary to the
//     configured channel, silently skipping empty days.
//
// Invocations share no mutable state. Every invocation carries its own
// correlation id for logging.
package bot
