package server

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Config holds the websocket server settings together with the data files it
// serves simulations from.
type Config struct {
	Addr string

	ComponentsPath string
	MixturesPath   string
	MembranePaths  []string

	// Precision is the flux-solver convergence threshold handed to every
	// run; MaxSteps caps the step count a client may request.
	Precision float64
	MaxSteps  int
}

// LoadConfig reads the server configuration from an ini file. Loading is
// explicit so callers control when and from where configuration comes.
func LoadConfig(path string) (Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("server: load config %s: %w", path, err)
	}
	srv := file.Section("server")
	data := file.Section("data")
	sim := file.Section("simulation")
	return Config{
		Addr:           srv.Key("Addr").MustString(":8080"),
		ComponentsPath: data.Key("Components").String(),
		MixturesPath:   data.Key("Mixtures").String(),
		MembranePaths:  data.Key("Membranes").Strings(","),
		Precision:      sim.Key("Precision").MustFloat64(5e-5),
		MaxSteps:       sim.Key("MaxSteps").MustInt(10000),
	}, nil
}
