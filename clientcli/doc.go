// Package clientcli provides a client library for ownpaste servers.
//
// It supports creating, fetching, updating and deleting pastes over the
// ownpaste JSON API (version 1) with HTTP basic authentication. The package
// includes profile-based configuration compatible with ~/.oprc.
//
// # Basic Usage
//
// Resolve a profile and create a paste:
//
//	cfg, err := clientcli.Load(clientcli.DefaultConfigPath(), "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	name := "hello.txt"
//	paste, err := client.Create(ctx, clientcli.CreateOptions{
//		FileContent: "hello world",
//		FileName:    &name,
//	})
//
// # Partial Updates
//
// UpdateOptions fields are unset by default and are then not sent at all.
// Use Set for a value and Null for an explicit JSON null:
//
//	paste, err := client.Update(ctx, "abc123", clientcli.UpdateOptions{
//		FileName: clientcli.Set("renamed.txt"),
//		Language: clientcli.Null[string](),
//	})
//
// # Profile Configuration
//
// Profiles live in an INI file by default:
//
//	[settings]
//	default_profile = work
//
//	[profile:work]
//	username = ownpaste
//	password = secret
//	base_url = https://paste.example.com
//
// Files ending in .yaml or .yml are read as YAML instead.
//
// # Errors
//
// Failures are reported as *ConfigError, *HTTPError, *APIError or
// *CommandError. A missing paste is an *APIError matching ErrPasteNotFound:
//
//	_, err := client.Fetch(ctx, "abc123")
//	if errors.Is(err, clientcli.ErrPasteNotFound) {
//		// gone
//	}
package clientcli
