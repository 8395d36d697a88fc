package instance

import "os"

// GetID returns the process instance identifier used in startup logs. Heroku
// sets DYNO, containers usually set HOSTNAME.
func GetID() string {
	for _, key := range []string{"DYNO", "HOSTNAME"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
