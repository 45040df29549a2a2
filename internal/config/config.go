package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds everything the CLI can tune. Nothing here is required:
// defaults produce a working run against the live FSF list.
type Settings struct {
	Debug bool // true to enable debug log output

	Source struct {
		URL       string        // upstream license-list page
		UserAgent string        // user agent sent with the fetch
		Timeout   time.Duration // per-request timeout
	}

	Output struct {
		Dir     string // directory the dataset is written to
		BaseURI string // base URI of the published site, anchors @context references
	}

	Serve struct {
		Port string // preview server port
	}
}

const (
	defaultSourceURL = "https://www.gnu.org/licenses/license-list.html"
	defaultBaseURI   = "https://licensedb.github.io/fsf-api/"
	defaultUserAgent = "fsf-api/1.0"
)

func setDefaults() {
	viper.SetDefault("debug", false)
	viper.SetDefault("source.url", defaultSourceURL)
	viper.SetDefault("source.useragent", defaultUserAgent)
	viper.SetDefault("source.timeout", 15*time.Second)
	viper.SetDefault("output.dir", "public")
	viper.SetDefault("output.baseuri", defaultBaseURI)
	viper.SetDefault("serve.port", "8080")
}

// Load builds Settings from defaults overridden by FSFAPI_* environment
// variables. Command-line flags bind on top of the returned struct.
func Load() *Settings {
	setDefaults()
	viper.SetEnvPrefix("fsfapi")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	s := &Settings{}
	s.Debug = viper.GetBool("debug")
	s.Source.URL = viper.GetString("source.url")
	s.Source.UserAgent = viper.GetString("source.useragent")
	s.Source.Timeout = viper.GetDuration("source.timeout")
	s.Output.Dir = viper.GetString("output.dir")
	s.Output.BaseURI = viper.GetString("output.baseuri")
	s.Serve.Port = viper.GetString("serve.port")
	return s
}
