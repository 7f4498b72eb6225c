// Package config handles loading and validating the mock backend configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - The API key defaults to the value compiled into the firmware; change it
//     with TODOMOCK_API_KEY when the mock is reachable beyond a bench network
//   - Broker passwords and InfluxDB tokens should come from the environment
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.API.Port)
//
// Passing an empty path loads defaults plus environment overrides, which is
// enough to run the mock with no config file at all.
package config
