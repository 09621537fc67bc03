package lazyfetch

// Version is the release of this module. Builds may override it with
// -ldflags "-X github.com/aretw0/lazyfetch.Version=...".
var Version = "0.3.0"
