// Package health reports whether the pieces a resolution engine depends on
// are usable before any reference is resolved.
//
// A Checker reports one component: the secret backend's reachability, or
// whether an access token was found. An Aggregator runs a set of checkers
// concurrently under one deadline and folds their results into an overall
// Status.
//
//	agg := health.NewAggregator()
//	agg.Register(backendChecker)
//	agg.Register(health.NewCheckerFunc("token", tokenCheck))
//
//	report := agg.CheckAll(ctx)
//	if report.Status == health.StatusUnhealthy {
//	    // backend unreachable
//	}
package health
