// Package aws provides a collector that discovers EC2 instances and EBS
// volumes across a set of AWS regions.
//
// Credentials and the default region come from the standard AWS SDK chain
// (environment, shared config, instance role). Each region is collected
// concurrently and throttled by its own rate limiter.
//
// Resource types:
//   - ec2-instance: non-terminated EC2 instances
//   - ebs-volume: EBS volumes
//
// The Name tag becomes the resource name; every tag, Name included, is kept.
package aws
