// Command tanko organizes a manga series folder: it normalizes volume
// filenames, groups volumes into numbered batch folders, and writes a
// numbered cover image into each batch.
package main
