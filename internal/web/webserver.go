// Package web provides the HTTP server for go-homepage.
//
// Files:
//
//	webserver_core_routes.go - server setup, route table, start/shutdown
//	web_homePage.go          - handler for "/"
//	web_utils.go             - template loading and error pages
//	web_middleware.go        - request id, access log, panic recovery
package web
