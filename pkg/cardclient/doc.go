// Package cardclient provides the main entry point for creating card API
// clients.
package cardclient
