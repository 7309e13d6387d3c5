package mosaic

// Version should be set by the build system to the git tag of the
// release.
var Version = "development"
