package models

// BootstrapInfo is the singleton record read once at startup.
type BootstrapInfo struct {
	InstanceID    string `json:"instanceId"`
	CreatedAt     int64  `json:"createdAt"`
	HashAlgorithm string `json:"hashAlgorithm"`
}
