// Package filesystem provides a collector that reads resources from a local
// inventory file. The file is JSON or TOML, chosen by extension:
//
//	[[resources]]
//	id = "i-0abc123"
//	type = "ec2-instance"
//	region = "us-east-1"
//	name = "web-01"
//	tags = { env = "prod" }
//
// JSON files hold either a bare array of resources or an object with a
// "resources" array, using the same field names as `shiftmap export`.
//
// Watch follows the file with fsnotify so an inventory can be re-synced
// whenever an external tool rewrites it.
package filesystem
