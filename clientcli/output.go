package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// PasteLink is the result of an add or modify command.
type PasteLink struct {
	URL       string `json:"url"`
	Raw       bool   `json:"raw"`
	PasteID   string `json:"paste_id"`
	PrivateID string `json:"private_id,omitempty"`
	Private   bool   `json:"private"`
}

// NewPasteLink builds the link for p using c.
func NewPasteLink(c *Client, p *Paste, raw bool) (*PasteLink, error) {
	u, err := c.PasteURL(p, raw)
	if err != nil {
		return nil, err
	}
	link := &PasteLink{
		URL:     u,
		Raw:     raw,
		PasteID: p.PasteID,
		Private: p.Private,
	}
	if p.PrivateID != nil {
		link.PrivateID = *p.PrivateID
	}
	return link, nil
}

// Language is a language known to the server.
type Language struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Formatter formats results for output.
type Formatter interface {
	FormatPaste(w io.Writer, link *PasteLink) error
	FormatDelete(w io.Writer, pasteID string) error
	FormatLanguages(w io.Writer, langs []Language) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
// terminal reports whether the output goes to an interactive terminal.
func NewFormatter(jsonOutput, quiet, terminal bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet, Terminal: terminal}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet    bool
	Terminal bool
}

// FormatPaste prints the paste link. The "Paste:" prefix is only shown on
// a terminal so the bare URL can be piped.
func (f *HumanFormatter) FormatPaste(w io.Writer, link *PasteLink) error {
	if f.Quiet || !f.Terminal {
		_, _ = fmt.Fprintln(w, link.URL)
		return nil
	}
	prefix := "Paste: "
	if link.Raw {
		prefix = "Raw paste: "
	}
	_, _ = fmt.Fprintln(w, prefix+link.URL)
	return nil
}

// FormatDelete formats a delete result as human-readable text.
func (f *HumanFormatter) FormatDelete(w io.Writer, pasteID string) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Deleted: %s\n", pasteID)
	}
	return nil
}

// FormatLanguages prints one language per line.
func (f *HumanFormatter) FormatLanguages(w io.Writer, langs []Language) error {
	if len(langs) == 0 {
		_, _ = fmt.Fprintln(w, "No languages available")
		return nil
	}

	if f.Quiet {
		for i := range langs {
			_, _ = fmt.Fprintln(w, langs[i].ID)
		}
		return nil
	}

	maxIDLen := 2 // "ID"
	for i := range langs {
		if len(langs[i].ID) > maxIDLen {
			maxIDLen = len(langs[i].ID)
		}
	}

	_, _ = fmt.Fprintf(w, "%-*s  %s\n", maxIDLen, "ID", "NAME")
	_, _ = fmt.Fprintf(w, "%s  %s\n", strings.Repeat("-", maxIDLen), strings.Repeat("-", 20))
	for i := range langs {
		_, _ = fmt.Fprintf(w, "%-*s  %s\n", maxIDLen, langs[i].ID, langs[i].Name)
	}
	return nil
}

// FormatError prints err prefixed with its kind. APIErrors are printed
// as their bare message.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	kind := ErrorKind(err)
	if kind == "APIError" {
		_, _ = fmt.Fprintln(w, err.Error())
		return nil
	}
	_, _ = fmt.Fprintf(w, "%s: %v\n", kind, err)
	return nil
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	maxNameLen := 4 // "NAME"
	maxURLLen := 8  // "BASE URL"
	for i := range profiles {
		if len(profiles[i].Name) > maxNameLen {
			maxNameLen = len(profiles[i].Name)
		}
		if len(profiles[i].BaseURL) > maxURLLen {
			maxURLLen = len(profiles[i].BaseURL)
		}
	}
	if maxNameLen > 20 {
		maxNameLen = 20
	}
	if maxURLLen > 50 {
		maxURLLen = 50
	}

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %-12s  %s\n", maxNameLen, "NAME", maxURLLen, "BASE URL", "USERNAME", "PASSWORD")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s  %s\n",
		strings.Repeat("-", maxNameLen), strings.Repeat("-", maxURLLen), strings.Repeat("-", 12), strings.Repeat("-", 12))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %-12s  %s\n",
			marker,
			maxNameLen, truncate(p.Name, maxNameLen),
			maxURLLen, truncate(p.BaseURL, maxURLLen),
			usernameOrDefault(p.Username),
			maskSecret(p.Password, showSecrets))
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:     %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Base URL: %s\n", profile.BaseURL)
	_, _ = fmt.Fprintf(w, "Username: %s\n", usernameOrDefault(profile.Username))
	_, _ = fmt.Fprintf(w, "Password: %s\n", maskSecret(profile.Password, showSecrets))
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatPaste formats the paste link as JSON.
func (f *JSONFormatter) FormatPaste(w io.Writer, link *PasteLink) error {
	return writeJSON(w, link)
}

// FormatDelete formats a delete result as JSON.
func (f *JSONFormatter) FormatDelete(w io.Writer, pasteID string) error {
	output := struct {
		PasteID string `json:"paste_id"`
		Deleted bool   `json:"deleted"`
	}{
		PasteID: pasteID,
		Deleted: true,
	}
	return writeJSON(w, output)
}

// FormatLanguages formats languages as JSON.
func (f *JSONFormatter) FormatLanguages(w io.Writer, langs []Language) error {
	output := struct {
		Languages []Language `json:"languages"`
	}{
		Languages: langs,
	}
	if output.Languages == nil {
		output.Languages = []Language{}
	}
	return writeJSON(w, output)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Kind  string `json:"kind"`
		Error string `json:"error"`
	}{
		Kind:  ErrorKind(err),
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	type jsonProfile struct {
		Name     string `json:"name"`
		BaseURL  string `json:"base_url"`
		Username string `json:"username"`
		Password string `json:"password"`
		Default  bool   `json:"default,omitempty"`
	}

	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		p := &profiles[i]
		output.Profiles[i] = jsonProfile{
			Name:     p.Name,
			BaseURL:  p.BaseURL,
			Username: usernameOrDefault(p.Username),
			Password: maskSecret(p.Password, showSecrets),
			Default:  p.Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	output := struct {
		Name     string `json:"name"`
		BaseURL  string `json:"base_url"`
		Username string `json:"username"`
		Password string `json:"password"`
		Default  bool   `json:"default"`
	}{
		Name:     profile.Name,
		BaseURL:  profile.BaseURL,
		Username: usernameOrDefault(profile.Username),
		Password: maskSecret(profile.Password, showSecrets),
		Default:  isDefault,
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func usernameOrDefault(username string) string {
	if username == "" {
		return DefaultUsername
	}
	return username
}

// maskSecret masks a secret string, showing only first 2 and last 2 characters.
// If showSecrets is true, returns the original value.
// If the secret is too short, returns all asterisks.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:2] + "..." + secret[len(secret)-2:]
}
