// Package main runs visonai-gateway, a token gated REST API for posts and
// users backed by gorm. The same process serves the admin settings form and
// the public pages that load the vison-ai analysis script.
package main
