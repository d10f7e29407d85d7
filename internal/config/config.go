// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the application.
type Options struct {
	// StoragePath is where the local snapshot is kept.
	StoragePath string `json:"storage_path"`

	// StorageBackend selects the local persistence adapter: "file" or
	// "sqlite".
	StorageBackend string `json:"storage_backend"`

	// RemoteURL is the base URL of the cloud blob store used for manual
	// backup and restore.
	RemoteURL string `json:"remote_url"`

	// OAuthClientID and OAuthClientSecret identify the registered OAuth
	// client used for Google sign-in.
	OAuthClientID     string `json:"oauth_client_id"`
	OAuthClientSecret string `json:"oauth_client_secret"`

	// AuthListenAddr is the loopback address catching the sign-in
	// redirect.
	AuthListenAddr string `json:"auth_listen_addr"`

	// LogLevel sets the logging verbosity.
	LogLevel string `json:"log_level"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.StoragePath, "s", "bandstand.json", "path to the local snapshot")
	flag.StringVar(&options.StorageBackend, "backend", "file", "local storage backend: file | sqlite")
	flag.StringVar(&options.RemoteURL, "remote", "", "base URL of the backup blob store")
	flag.StringVar(&options.OAuthClientID, "client-id", "", "OAuth client id for Google sign-in")
	flag.StringVar(&options.OAuthClientSecret, "client-secret", "", "OAuth client secret for Google sign-in")
	flag.StringVar(&options.AuthListenAddr, "auth-listen", "127.0.0.1:8910", "loopback address for the sign-in redirect")
	flag.StringVar(&options.LogLevel, "log-level", "info", "log level: debug | info | warn | error")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("BANDSTAND_CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if storagePath := os.Getenv("BANDSTAND_STORAGE"); storagePath != "" {
		options.StoragePath = storagePath
	}
	if remoteURL := os.Getenv("BANDSTAND_REMOTE_URL"); remoteURL != "" {
		options.RemoteURL = remoteURL
	}
	if clientID := os.Getenv("BANDSTAND_OAUTH_CLIENT_ID"); clientID != "" {
		options.OAuthClientID = clientID
	}
	if clientSecret := os.Getenv("BANDSTAND_OAUTH_CLIENT_SECRET"); clientSecret != "" {
		options.OAuthClientSecret = clientSecret
	}

	return options
}
