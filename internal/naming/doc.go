// Package naming derives target filenames for placed images.
//
// Build combines the capture timestamp and the original stem according to a
// Scheme and always keeps the original extension. IncrementSuffix produces the
// next alternate stem when a file with different content already occupies the
// target name. Both functions are pure.
package naming
