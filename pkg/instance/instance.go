// Package instance identifies the running process in status reports.
package instance

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
)

const appID = "quanturnic"

// ID returns a stable, app-scoped hash of the host's machine id. Hosts
// without a readable machine id get a random UUID, so the value is then
// only stable for the life of the process.
func ID() string {
	if id, err := machineid.ProtectedID(appID); err == nil && id != "" {
		return id
	}
	return uuid.NewString()
}
