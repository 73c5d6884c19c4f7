package mcpcfg

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// ProjectEnv resolves the variable set visible to MCP servers launched from a
// Laravel project: the project's .env file overlaid on the process
// environment, process values winning. A missing .env is not an error.
func ProjectEnv(root string) (map[string]string, error) {
	env := map[string]string{}

	dotenvPath := filepath.Join(root, ".env")
	if _, err := os.Stat(dotenvPath); err == nil {
		fromFile, err := godotenv.Read(dotenvPath)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			env[k] = v
		}
	}

	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				env[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	return env, nil
}

// Expanded returns a copy of the server config with ${VAR} placeholders in
// Args, Env values, URL, and Headers resolved against vars. Unknown
// placeholders expand to the empty string, matching shell behavior.
func (s *ServerConfig) Expanded(vars map[string]string) *ServerConfig {
	lookup := func(name string) string { return vars[name] }

	out := &ServerConfig{
		Type:        s.Type,
		Command:     s.Command,
		URL:         os.Expand(s.URL, lookup),
		Description: s.Description,
	}
	if len(s.Args) > 0 {
		out.Args = make([]string, len(s.Args))
		for i, a := range s.Args {
			out.Args[i] = os.Expand(a, lookup)
		}
	}
	if len(s.Env) > 0 {
		out.Env = make(map[string]string, len(s.Env))
		for k, v := range s.Env {
			out.Env[k] = os.Expand(v, lookup)
		}
	}
	if len(s.Headers) > 0 {
		out.Headers = make(map[string]string, len(s.Headers))
		for k, v := range s.Headers {
			out.Headers[k] = os.Expand(v, lookup)
		}
	}
	return out
}
