// Package authgate implements a token based authentication gateway: it
// issues signed bearer tokens on login, verifies them on every protected
// request, and re-checks account status before a request is admitted.
//
// The package is transport agnostic except for the fiber controller in
// http_controller.go; the request filter pipeline lives in
// middleware/bearerware.
package authgate
