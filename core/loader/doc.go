// Package loader registers HTTP features and mounts the enabled ones on the app.
//
// A feature implements Feature; LoadAll skips features whose IsEnabled returns false
// and stops at the first Load error.
package loader
