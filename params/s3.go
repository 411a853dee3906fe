package params

import "time"

// Audio assets live in S3 under "bucket/key" references on guide anchors.

var AWS_BUCKETNAME = envOr("AWS_BUCKETNAME", "")

const AudioPresignTTL = 15 * time.Minute
