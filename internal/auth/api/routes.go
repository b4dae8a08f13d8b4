package authapi

// routePolicy describes how the gatekeeper treats one path. The table is
// explicit on purpose: a path absent from it is never forwarded, even for a
// fully authenticated caller.
type routePolicy struct {
	// requiresAuth gates the path behind refresh-token verification.
	requiresAuth bool

	// allowedAfterApproval forwards the request once the gatekeeper has
	// approved it.
	allowedAfterApproval bool
}

var routeTable = map[string]routePolicy{
	// Unauthenticated surface.
	"/login":    {requiresAuth: false, allowedAfterApproval: true},
	"/register": {requiresAuth: false, allowedAfterApproval: true},

	// Operational endpoints bypass token checks.
	"/healthz": {requiresAuth: false, allowedAfterApproval: true},
	"/readyz":  {requiresAuth: false, allowedAfterApproval: true},
	"/metrics": {requiresAuth: false, allowedAfterApproval: true},

	// Protected surface.
	"/logout":         {requiresAuth: true, allowedAfterApproval: true},
	"/updatePassword": {requiresAuth: true, allowedAfterApproval: true},
	"/forgotPassword": {requiresAuth: true, allowedAfterApproval: true},
}

func policyFor(path string) routePolicy {
	if p, ok := routeTable[path]; ok {
		return p
	}
	// Unknown paths stay behind the refresh-token check and are never
	// forwarded.
	return routePolicy{requiresAuth: true, allowedAfterApproval: false}
}
