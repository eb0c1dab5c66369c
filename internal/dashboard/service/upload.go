package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/carbonview/dashboard/internal/cache"
	"github.com/carbonview/dashboard/internal/domain"
	"github.com/carbonview/dashboard/internal/logging"
	"github.com/carbonview/dashboard/internal/session"
	"github.com/carbonview/dashboard/internal/uploads"
	"github.com/carbonview/dashboard/internal/viewstate"
)

const uploadWhat = "upload result"

// Upload validates an IFC file, archives it when an archiver is configured,
// forwards it to the backend and records a receipt. Failures end up in the
// dialog's result; nothing is retried.
func (s *Service) Upload(ctx context.Context, id session.Identity, projectID, fileName string, r io.Reader, comment string) viewstate.UploadDialog {
	logger := logging.FromContext(ctx, s.logger)
	dialog := viewstate.UploadDialog{FileName: fileName}

	rec := &uploads.Receipt{ProjectID: projectID, UserID: id.UserID, FileName: fileName}
	defer s.record(ctx, rec)

	file, err := uploads.Read(fileName, r, s.maxUploadBytes)
	if err != nil {
		rec.Status, rec.Detail = uploads.ReceiptRejected, rejectionDetail(err)
		dialog.Upload = viewstate.Failed[domain.UploadVersion](uploadWhat, err)
		return dialog
	}
	dialog.FileName = file.Name
	rec.FileName, rec.SizeBytes, rec.SHA256 = file.Name, file.Size(), file.SHA256

	if s.archiver != nil {
		key, err := s.archiver.Archive(ctx, projectID, file)
		if err != nil {
			logger.LogWarnf("Upload", "archive skipped: %v", err)
		} else {
			rec.ArchiveKey = key
		}
	}

	v, err := s.backend.UploadIFC(ctx, id, projectID, file.Name, file.Content, comment)
	if err != nil {
		logger.LogError("Upload", err)
		rec.Status, rec.Detail = uploads.ReceiptRejected, rejectionDetail(err)
		dialog.Upload = viewstate.Failed[domain.UploadVersion](uploadWhat, err)
		return dialog
	}

	rec.Status, rec.Version = uploads.ReceiptAccepted, v.Version
	if err := cache.InvalidateProject(ctx, s.cache, projectID); err != nil {
		logger.LogWarnf("Upload", "cache invalidation: %v", err)
	}
	logger.LogInfof("Upload", "project %s: uploaded %s as version %d (%d bytes)", projectID, file.Name, v.Version, file.Size())

	dialog.Upload = viewstate.Ready(*v)
	return dialog
}

func (s *Service) record(ctx context.Context, rec *uploads.Receipt) {
	if s.receipts == nil {
		return
	}
	if err := s.receipts.Insert(ctx, rec); err != nil {
		logging.FromContext(ctx, s.logger).LogError("RecordReceipt", err)
	}
}

func rejectionDetail(err error) string {
	var de viewstate.DetailedError
	if errors.As(err, &de) && de.UserDetail() != "" {
		return de.UserDetail()
	}
	return err.Error()
}

// Receipts lists the upload receipts of a project the caller can read.
func (s *Service) Receipts(ctx context.Context, id session.Identity, projectID string, limit int) ([]uploads.Receipt, error) {
	if _, err := s.backend.GetProject(ctx, id, projectID); err != nil {
		return nil, err
	}
	if s.receipts == nil {
		return []uploads.Receipt{}, nil
	}
	out, err := s.receipts.ListByProject(ctx, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return out, nil
}
