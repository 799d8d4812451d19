package linear

// Option configures a LinearRegression.
type Option func(*LinearRegression)

// WithFitIntercept sets whether to calculate the intercept. When false the
// fitted line passes through the origin.
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}
