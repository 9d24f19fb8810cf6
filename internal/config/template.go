package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Setting is one configuration key with its current value and a short description.
type Setting struct {
	Key   string
	Value string
	Help  string
}

// Settings lists every key in file order.
func (c *Config) Settings() []Setting {
	return []Setting{
		{"poll.interval", c.Poll.Interval.String(), "pause between polls"},
		{"poll.fetch_command", c.Poll.FetchCommand, "command printing the sessions JSON"},
		{"poll.fetch_file", c.Poll.FetchFile, "sessions JSON file, used when fetch_command is empty"},
		{"poll.fetch_timeout", c.Poll.FetchTimeout.String(), "limit for one fetch"},
		{"store.backend", c.Store.Backend, "file or sqlite"},
		{"store.dir", c.Store.Dir, "directory for names, links and the hotkey"},
		{"focus.strategy", c.Focus.Strategy, "tmux, command or none"},
		{"focus.command", c.Focus.Command, "focus command, {pid} and {path} are substituted"},
		{"hotkey.register_command", c.Hotkey.RegisterCommand, "binds the shortcut, {combo} is substituted"},
		{"hotkey.unregister_command", c.Hotkey.UnregisterCommand, "releases the shortcut, {combo} is substituted"},
		{"opener.command", c.Opener.Command, "opens links, {url} is substituted; empty uses the system opener"},
		{"opener.default_scheme", c.Opener.DefaultScheme, "scheme added to links without one"},
		{"git.enrich", strconv.FormatBool(c.Git.Enrich), "fill missing branch and GitHub link from the project"},
		{"git.cache_ttl", c.Git.CacheTTL.String(), "how long git details are reused"},
		{"metrics.addr", c.Metrics.Addr, "serve Prometheus metrics on this address, e.g. :9464"},
		{"log.file", c.Log.File, "log file, defaults to the temp dir"},
		{"log.debug", strconv.FormatBool(c.Log.Debug), "write the debug log"},
	}
}

// Template renders the configuration as a commented YAML document.
func (c *Config) Template() ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	sections := map[string]*yaml.Node{}

	for _, s := range c.Settings() {
		section, key := splitKey(s.Key)

		body, ok := sections[section]
		if !ok {
			body = &yaml.Node{Kind: yaml.MappingNode}
			sections[section] = body
			root.Content = append(root.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: section},
				body,
			)
		}

		value := &yaml.Node{Kind: yaml.ScalarNode, Value: s.Value}
		if s.Value == "" {
			value.Tag = "!!str"
			value.Style = yaml.DoubleQuotedStyle
		}
		body.Content = append(body.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key, HeadComment: s.Help},
			value,
		)
	}

	var buf bytes.Buffer
	buf.WriteString("# sessionboard configuration\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTemplate writes the default configuration to path. An existing file
// is only replaced when force is set.
func WriteTemplate(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists", path)
	}

	data, err := DefaultConfig().Template()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func splitKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}
