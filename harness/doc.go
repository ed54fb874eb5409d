// Package harness drives repeated estimation runs on top of kent and mixture.
//
// Two drivers live here:
//
//   - Run repeats "draw a sample from a known Kent distribution, fit it with
//     every estimator" for a number of trials and summarises the bias,
//     variance, mean absolute error and mean squared error of κ and β per
//     estimator. A trial whose MMLComplete fit is degenerate (β at or below
//     Options.DegenerateBeta) is redrawn at most Options.MaxRetries times;
//     the number of redraws is reported, since discarding draws conditions
//     the summaries on non-degenerate samples.
//   - Search hill-climbs over the number of mixture components with the
//     split, kill and join operators, keeping the mixture with the shortest
//     message length. Sweep fits every K in a range from a random start.
//
// Trials are independent and may run on a worker pool; each trial draws from
// its own stream derived from Options.Seed, so a report does not depend on
// the number of workers.
package harness
