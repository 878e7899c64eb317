// Package models defines the records, folders and applications held in the local vault cache
package models

// RecordTypeConfigurationPattern matches the record types of PAM configuration records
// (pamNetworkConfiguration, pamAwsConfiguration, pamAzureConfiguration, ...)
const RecordTypeConfigurationPattern = `^pam.*Configuration$`

// Folder type tags persisted with a record. A record added to a subfolder of a shared folder is
// tagged differently but encrypted with the same shared folder key.
const (
	FolderTypeSharedFolder       = "shared_folder"
	FolderTypeSharedFolderFolder = "shared_folder_folder"
)

// SyncStateID is the id of the single sync marker row
const SyncStateID uint = 1
