// Package file provides file-based configuration adapters.
//
// Adapters:
//   - ConfigStore: TOML configuration in {data_dir}/config.toml
//   - PromptStore: user-editable prompt templates in {data_dir}/prompts
package file
