package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/celestiaorg/pamdiscover/internal/crypto"
	"github.com/celestiaorg/pamdiscover/internal/db/models"
	"github.com/celestiaorg/pamdiscover/internal/db/repos"
	"github.com/celestiaorg/pamdiscover/internal/logger"
	"github.com/celestiaorg/pamdiscover/internal/types"
	"github.com/celestiaorg/pamdiscover/pkg/api/v1/client"
)

// DiscoveryNote is the note written on every record created from a discovery result
const DiscoveryNote = "Added by Discovery"

// RecordMinter creates vault records from discovered objects and registers them for rotation
type RecordMinter struct {
	recordRepo *repos.RecordRepository
	folderRepo *repos.FolderRepository
	syncRepo   *repos.SyncStateRepository
	router     client.Client

	// random is the source of record keys and record uids
	random io.Reader
	now    func() time.Time
}

// NewRecordMinter creates a new record minter
func NewRecordMinter(
	recordRepo *repos.RecordRepository,
	folderRepo *repos.FolderRepository,
	syncRepo *repos.SyncStateRepository,
	router client.Client,
) *RecordMinter {
	return &RecordMinter{
		recordRepo: recordRepo,
		folderRepo: folderRepo,
		syncRepo:   syncRepo,
		router:     router,
		random:     rand.Reader,
		now:        time.Now,
	}
}

// destination is the folder a new record lands in, with the key its record key is wrapped with
type destination struct {
	folderUID  string
	folderType string
	key        []byte
}

// Mint creates a record and returns its uid.
// A pamUser must name the resource it belongs to; nothing is generated or stored otherwise.
// When only the rotation registration fails, the uid of the stored record is returned with an
// error wrapping ErrRotationFailed.
func (m *RecordMinter) Mint(
	ctx context.Context,
	recordType, title string,
	fields []models.TypedField,
	info *types.GatewayInfo,
	parentResourceUID *string,
) (string, error) {
	if recordType == types.RecordTypePamUser && (parentResourceUID == nil || *parentResourceUID == "") {
		return "", fmt.Errorf("%w: a %s record requires a parent resource", ErrValidation, types.RecordTypePamUser)
	}
	if info == nil || info.Configuration == nil {
		return "", fmt.Errorf("%w: gateway configuration is required", ErrValidation)
	}

	dest, err := m.resolveFolder(ctx, info.SharedFolderUID())
	if err != nil {
		return "", err
	}

	recordKey, err := crypto.NewRecordKey(m.random)
	if err != nil {
		return "", err
	}
	wrapped, err := crypto.WrapKey(recordKey, dest.key)
	if err != nil {
		return "", err
	}
	recordUID, err := m.newRecordUID()
	if err != nil {
		return "", err
	}

	record := &models.Record{
		UID:                recordUID,
		Type:               recordType,
		Title:              title,
		FolderUID:          dest.folderUID,
		FolderType:         dest.folderType,
		RecordKey:          wrapped,
		Fields:             append([]models.TypedField(nil), fields...),
		Custom:             []models.TypedField{},
		Notes:              DiscoveryNote,
		ClientModifiedTime: m.now().UnixMilli(),
	}
	payload, err := record.MarshalData()
	if err != nil {
		return "", err
	}
	if record.Data, err = crypto.Seal(payload, recordKey); err != nil {
		return "", err
	}

	if err := m.recordRepo.Create(ctx, record); err != nil {
		return "", err
	}
	// The record exists from here on, so the vault needs a sync whatever happens next
	if err := m.syncRepo.MarkDirty(ctx); err != nil {
		return recordUID, err
	}

	rotation := client.RecordRotationRequest{
		RecordUID:        recordUID,
		Revision:         0,
		ConfigurationUID: info.ConfigurationUID(),
		Schedule:         "",
	}
	if recordType == types.RecordTypePamUser {
		rotation.ResourceUID = parentResourceUID
	}
	if err := m.router.SetRecordRotation(ctx, rotation); err != nil {
		return recordUID, fmt.Errorf("%w: record %s: %w", ErrRotationFailed, recordUID, err)
	}

	logger.DebugWithFields("minted record", map[string]interface{}{
		"record_uid":  recordUID,
		"record_type": recordType,
		"folder_uid":  dest.folderUID,
		"folder_type": dest.folderType,
	})
	return recordUID, nil
}

// resolveFolder accepts either a shared folder or a subfolder of one
func (m *RecordMinter) resolveFolder(ctx context.Context, folderUID string) (*destination, error) {
	if folderUID == "" {
		return nil, fmt.Errorf("%w: the configuration does not name a folder", ErrFolderNotFound)
	}

	shared, err := m.folderRepo.GetSharedFolder(ctx, folderUID)
	if err == nil {
		return &destination{folderUID: shared.UID, folderType: models.FolderTypeSharedFolder, key: shared.Key}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	folder, err := m.folderRepo.GetFolder(ctx, folderUID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folderUID)
	}
	if err != nil {
		return nil, err
	}

	shared, err = m.folderRepo.GetSharedFolder(ctx, folder.SharedFolderUID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: shared folder %s of folder %s", ErrFolderNotFound, folder.SharedFolderUID, folderUID)
	}
	if err != nil {
		return nil, err
	}
	return &destination{folderUID: folder.UID, folderType: models.FolderTypeSharedFolderFolder, key: shared.Key}, nil
}

// newRecordUID returns 16 random bytes as unpadded url-safe base64
func (m *RecordMinter) newRecordUID() (string, error) {
	id, err := uuid.NewRandomFromReader(m.random)
	if err != nil {
		return "", fmt.Errorf("failed to generate record uid: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(id[:]), nil
}

var _ Minter = (*RecordMinter)(nil)
