// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Optional collaborators such as the
// search engine, content cache and clock are attached with Set methods.
package services
