package models

import "time"

// Run is one recorded resolution of a run configuration.
type Run struct {
	// ID is a time-ordered UUID (version 7).
	ID string `json:"id"`

	// ModelName is the model_name value of the configuration, empty when the
	// configuration has none.
	ModelName string `json:"model_name"`

	// ConfigName is the configuration file that was requested.
	ConfigName string `json:"config_name"`

	// Tags are the experiment-tracker labels of the run, in order.
	Tags []string `json:"tags"`

	// Chain lists the origins of the inherited files, root ancestor first.
	Chain []string `json:"chain"`

	// Config is the final configuration serialized as YAML.
	Config string `json:"config"`

	CreatedAt time.Time `json:"created_at"`
}
