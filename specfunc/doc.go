// Package specfunc collects the special functions behind the Kent
// normalisation constant:
//
//   - LogBesselI: log I_nu(x) by a log-scaled power series, with +Inf as the
//     divergence sentinel;
//   - LogBesselIHalfOrders: the whole sequence log I_{k+1/2}(x) at once, via
//     the closed form of I_{1/2} and a backward ratio recurrence;
//   - LogGamma, LogSumExp, LogAddExp;
//   - Dawson: Dawson's integral by Gauss–Legendre quadrature.
//
// Every function is pure and safe for concurrent use.
package specfunc
