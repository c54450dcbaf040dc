package global

import (
	"github.com/Vampire-js/techfiesta/pkg/fileurl"
)

var (
	// ROOT process working root
	ROOT string
	// Name display name of the service
	Name string = "Techfiesta Notes"
	// WebClientName client name recorded for browser sessions
	WebClientName string = "Web"

	// Version build metadata, overridden through ldflags.
	Version   string = "dev"
	GitTag    string = ""
	BuildTime string = ""
)

func init() {
	ROOT = fileurl.GetExePath() + "/"
}
