package herlang

// Version is stamped into release builds via -ldflags.
var Version = "0.3.0-dev"
