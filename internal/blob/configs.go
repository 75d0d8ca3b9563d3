package blob

// Driver names accepted by Config.Driver.
const (
	DriverDisk  = "disk"
	DriverMinio = "minio"
)

// Config selects and configures the blob store backend.
type Config struct {
	// Driver is "disk" or "minio".
	Driver string `envconfig:"BLOB_DRIVER" default:"disk"`

	Disk  DiskConfig
	Minio MinioConfig
}

// DiskConfig configures the local-filesystem store.
type DiskConfig struct {
	// Directory is where uploaded blobs are written.
	Directory string `envconfig:"BLOB_DIR" default:"uploads"`

	// PublicBase is the URL prefix under which blobs are served.
	PublicBase string `envconfig:"BLOB_PUBLIC_BASE" default:"/uploads"`
}

// MinioConfig configures the S3-compatible store.
type MinioConfig struct {
	Endpoint        string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"MINIO_ACCESS_KEY"`
	SecretAccessKey string `envconfig:"MINIO_SECRET_KEY"`
	UseSSL          bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	BucketName      string `envconfig:"MINIO_BUCKET" default:"pixvault"`
	Region          string `envconfig:"MINIO_REGION" default:"us-east-1"`

	// PublicBase is the URL prefix under which objects are exposed,
	// e.g. a CDN or reverse-proxy route in front of the bucket.
	PublicBase string `envconfig:"MINIO_PUBLIC_BASE" default:"/uploads"`
}
