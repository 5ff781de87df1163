// Package capture derives where a camera-trap image belongs from its EXIF
// metadata: the ISO year and week it was taken, and the sector and corridor
// of the camera that took it.
//
// Trail cameras write their deployment identifier into the MakerNote tag as a
// backslash-separated record (for example `BSCAM\FW 2.1\NORTH-CORRIDOR-03\...`).
// ExtractCorridor pulls the identifier out of that record and SplitCorridor
// turns it into two nested folder names.
package capture
