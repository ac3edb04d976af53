// Package runid generates the per-calculation identifier stamped into
// logs, standing in for the Python original's Gurobi model name
// ("mobius-<env>-role-<role_id>"; see mobius/assign.py). A random ID lets
// two calculations for the same role run concurrently without their log
// lines being confused for one another.
package runid

import "github.com/google/uuid"

// New returns a fresh run identifier.
func New() string {
	return uuid.NewString()
}
