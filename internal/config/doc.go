// Package config loads the authenticator configuration file.
//
// The file lives at ~/.config/authenticator/config.yaml unless --config
// points elsewhere:
//
//	authorizationEndpoint: https://idp.example.com/authorize
//	clientId: abc123
//	redirectUri: http://localhost:3000
//	scope: openid profile user_info_all
//	extraParams:
//	  groups_info: "0"
//	  response_mode: query
//	suppressedPrefixes:
//	  - https://accounts.example.com/profile/personal-detail
//	timeout: 10m
//	logLevel: info
//
// Omitted fields take the defaults from GetDefaultConfig. An explicit empty
// extraParams map disables the default extra parameters.
package config
