package config

import (
	"errors"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// apiKeyEnvVar is where the OpenAI key is conventionally exported.
const apiKeyEnvVar = "OPENAI_API_KEY"

// ResolveAPIKey resolves the OpenAI credential in priority order:
// config file, process environment, then an interactive masked prompt
// when interactive is true. A missing key is an expected condition, so
// this returns an explicit ok flag instead of an error. The resolved
// key is only ever held in memory and passed to clients directly;
// nothing is written back to disk.
func (c *Config) ResolveAPIKey(interactive bool) (string, bool) {
	if c.APIKey != "" {
		return c.APIKey, true
	}
	if key := os.Getenv(apiKeyEnvVar); key != "" {
		return key, true
	}
	if !interactive {
		return "", false
	}

	prompt := promptui.Prompt{
		Label: "Enter your OpenAI API key",
		Mask:  '*',
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("API key cannot be empty")
			}
			return nil
		},
	}
	key, err := prompt.Run()
	if err != nil {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	// Session-scoped only.
	c.APIKey = key
	return key, true
}
