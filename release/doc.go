// Package release implements the release-calendar pipeline: resolving the
// requested day, aggregating catalog items by publisher and rendering the
// presentation-ready Summary consumed by the chat layer.
//
// A Service composes the stages once per invocation:
//
//	DateResolver -> Fetcher -> Aggregate -> SummaryBuilder
//
// Nothing is cached between invocations; concurrent calls operate on
// independently fetched data.
package release
