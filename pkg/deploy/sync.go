package deploy

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/jwilges/drover/pkg/config"
	"github.com/jwilges/drover/pkg/errors"
	"github.com/jwilges/drover/pkg/packaging"
)

// Synchronizer drives one stage's deploy: classify the install tree, build
// and digest both archives, compare against the digests recorded on the
// remote function, and upload/update only what changed.
type Synchronizer struct {
	stageName  string
	stage      config.Stage
	client     RemoteClient
	scratchDir string
}

// NewSynchronizer creates a synchronizer for one stage. The client's
// lifecycle is scoped to the caller; independent stage invocations get
// independent clients.
func NewSynchronizer(stageName string, stage config.Stage, client RemoteClient) *Synchronizer {
	return &Synchronizer{
		stageName: stageName,
		stage:     stage,
		client:    client,
	}
}

// Summary describes the outcome of one synchronization run.
type Summary struct {
	// RequirementsDigest is empty when the install tree contained no
	// requirements files.
	RequirementsDigest        string
	FunctionDigest            string
	UploadedRequirements      bool
	UploadedFunction          bool
	UsedFallback              bool
	RequirementsLayerARN      string
	RequirementsLayerCodeSize int64
	FunctionARN               string
	FunctionCodeSize          int64
}

// Run synchronizes the install path with the stage's remote function. It
// returns an error on the first unrecoverable failure; digests recorded
// before that point remain recorded.
func (s *Synchronizer) Run(ctx context.Context, installPath string) (*Summary, error) {
	log.Infof("Deploying stage %q to function %q", s.stageName, s.stage.FunctionName)

	fileSet, err := packaging.Classify(installPath,
		s.stage.FunctionPatterns(), s.stage.ExcludePatterns(), s.stage.FunctionExtraPaths)
	if err != nil {
		return nil, errors.WithContext(err, "classify files")
	}

	functionArchive, requirementsArchive, err := s.buildArchives(fileSet)
	if err != nil {
		return nil, err
	}
	defer closeArchive(functionArchive)
	defer closeArchive(requirementsArchive)

	summary := &Summary{FunctionDigest: functionArchive.Digest}
	if requirementsArchive != nil {
		summary.RequirementsDigest = requirementsArchive.Digest
		log.Infof("Requirements digest: %s", requirementsArchive.Digest)
	} else {
		log.Info("Requirements digest: None")
	}
	log.Infof("Function digest: %s", functionArchive.Digest)

	function, err := s.client.GetFunction(ctx, s.stage.FunctionName)
	if err != nil {
		return nil, errors.WithContext(err,
			fmt.Sprintf("retrieve function %q", s.stage.FunctionName))
	}
	record, _ := RecordFromTags(function.Tags)
	store := NewStateStore(s.client, function.ARN)

	layerARN, err := s.syncRequirements(ctx, requirementsArchive, &record, store, function, summary)
	if err != nil {
		return nil, err
	}

	if err := s.syncConfiguration(ctx, function, layerARN); err != nil {
		return nil, err
	}

	if err := s.syncFunction(ctx, functionArchive, &record, store, function, summary); err != nil {
		return nil, err
	}

	return summary, nil
}

// buildArchives builds and digests the function and requirements archives.
// The two builds share no state and run concurrently. The requirements
// archive is nil when the install tree contains no requirements files.
func (s *Synchronizer) buildArchives(fileSet packaging.FileSet) (functionArchive, requirementsArchive *packaging.Archive, err error) {
	var libraryPath string
	if len(fileSet.RequirementsFiles) > 0 {
		libraryPath, err = packaging.RuntimeLibraryPath(s.stage.CompatibleRuntime)
		if err != nil {
			return nil, nil, err
		}
	}

	var wg sync.WaitGroup
	var functionErr, requirementsErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		functionArchive, functionErr = packaging.BuildArchive(
			packaging.KindFunction, fileSet.FunctionFiles, s.scratchDir)
	}()

	if len(fileSet.RequirementsFiles) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			requirementsArchive, requirementsErr = packaging.BuildArchive(
				packaging.KindRequirementsLayer,
				packaging.Reroot(fileSet.RequirementsFiles, libraryPath),
				s.scratchDir)
		}()
	}
	wg.Wait()

	if functionErr != nil || requirementsErr != nil {
		closeArchive(functionArchive)
		closeArchive(requirementsArchive)
		if functionErr != nil {
			return nil, nil, errors.WithContext(functionErr, "build function archive")
		}
		return nil, nil, errors.WithContext(requirementsErr, "build requirements archive")
	}
	return functionArchive, requirementsArchive, nil
}

// syncRequirements publishes a new requirements layer version when the
// archive's digest differs from the recorded one (or no usable record
// exists) and records the result. It returns the ARN of the layer version
// the function should have attached, which may be empty when no layer exists
// at all.
func (s *Synchronizer) syncRequirements(ctx context.Context, archive *packaging.Archive,
	record *Record, store *StateStore, function *FunctionDescriptor, summary *Summary) (string, error) {

	if archive == nil {
		// The requirements set may have been non-empty on an earlier deploy.
		// A previously published layer stays attached and its record stays
		// untouched; detaching is deliberately not attempted.
		log.Info("No requirements files; skipping layer processing")
		summary.RequirementsLayerARN = record.RequirementsLayerARN
		return record.RequirementsLayerARN, nil
	}

	upToDate := record.RequirementsDigest == archive.Digest &&
		record.RequirementsLayerARN != ""
	if upToDate {
		if err := s.client.GetLayerVersion(ctx, record.RequirementsLayerARN); err != nil {
			log.WithError(err).Warnf("Unable to retrieve requirements layer %q; forcing re-upload",
				record.RequirementsLayerARN)
			upToDate = false
		}
	}
	if upToDate {
		log.Info("Skipping requirements upload")
		summary.RequirementsLayerARN = record.RequirementsLayerARN
		return record.RequirementsLayerARN, nil
	}

	payload, cleanup, err := s.stagePayload(ctx, archive, summary)
	if err != nil {
		return "", err
	}
	defer cleanup()

	layerName := s.stage.FunctionName + "-requirements"
	description := fmt.Sprintf("Requirements layer for %s; digest: %s",
		s.stage.FunctionName, archive.Digest)
	layer, err := s.client.PublishLayerVersion(
		ctx, layerName, description, payload, s.stage.CompatibleRuntime)
	if err != nil {
		return "", errors.WithContext(err,
			fmt.Sprintf("publish requirements layer for %q", s.stage.FunctionName))
	}
	log.Infof("Published requirements layer %q; size: %s; ARN: %s",
		layerName, packaging.FormatFileSize(float64(layer.CodeSize)), layer.ARN)

	record.RequirementsDigest = archive.Digest
	record.RequirementsLayerARN = layer.ARN
	if err := store.Put(ctx, *record); err != nil {
		return "", errors.WithContext(err, "record requirements digest")
	}

	summary.UploadedRequirements = true
	summary.RequirementsLayerARN = layer.ARN
	summary.RequirementsLayerCodeSize = layer.CodeSize
	return layer.ARN, nil
}

// syncConfiguration attaches the requirements layer and sets the runtime when
// the remote function's configuration has drifted from the stage settings.
func (s *Synchronizer) syncConfiguration(ctx context.Context, function *FunctionDescriptor, layerARN string) error {
	if layerARN == "" {
		return nil
	}
	if function.Runtime == s.stage.CompatibleRuntime && containsString(function.LayerARNs, layerARN) {
		return nil
	}

	layerARNs := []string{layerARN}
	err := s.client.UpdateFunctionConfiguration(
		ctx, s.stage.FunctionName, s.stage.CompatibleRuntime, layerARNs)
	if err != nil {
		return errors.WithContext(err,
			fmt.Sprintf("set requirements layer for %q", s.stage.FunctionName))
	}
	log.Infof("Updated function runtime (%q) and layers: %v",
		s.stage.CompatibleRuntime, layerARNs)
	return nil
}

// syncFunction updates the function's code when the archive's digest differs
// from the recorded one and records the result. The function archive is
// always evaluated, even when the requirements upload was skipped.
func (s *Synchronizer) syncFunction(ctx context.Context, archive *packaging.Archive,
	record *Record, store *StateStore, function *FunctionDescriptor, summary *Summary) error {

	if record.FunctionDigest == archive.Digest && record.FunctionDigest != "" {
		log.Info("Skipping function upload")
		summary.FunctionARN = function.ARN
		summary.FunctionCodeSize = function.CodeSize
		return nil
	}

	payload, cleanup, err := s.stagePayload(ctx, archive, summary)
	if err != nil {
		return err
	}
	defer cleanup()

	updated, err := s.client.UpdateFunctionCode(ctx, s.stage.FunctionName, payload)
	if err != nil {
		return errors.WithContext(err,
			fmt.Sprintf("update function code for %q", s.stage.FunctionName))
	}
	log.Infof("Updated function %q; size: %s; ARN: %s",
		s.stage.FunctionName, packaging.FormatFileSize(float64(updated.CodeSize)), updated.ARN)

	record.FunctionDigest = archive.Digest
	if err := store.Put(ctx, *record); err != nil {
		return errors.WithContext(err, "record function digest")
	}

	summary.UploadedFunction = true
	summary.FunctionARN = updated.ARN
	summary.FunctionCodeSize = updated.CodeSize
	return nil
}

// stagePayload prepares the payload for a remote update call. When an upload
// bucket is configured the archive is uploaded there first; if that upload
// fails the archive falls back, exactly once, to a direct inline payload.
// The returned cleanup removes the staged object (if any) and must be called
// after the update call completes, whether it succeeded or not.
func (s *Synchronizer) stagePayload(ctx context.Context, archive *packaging.Archive, summary *Summary) (Payload, func(), error) {
	noCleanup := func() {}

	if s.stage.UploadBucket != nil {
		ref, err := s.uploadToBucket(ctx, archive)
		if err == nil {
			cleanup := func() {
				if err := s.client.DeleteObject(ctx, ref); err != nil {
					log.WithError(err).Warnf("Failed to delete staged object %q", ref.Key)
				}
			}
			return Payload{Object: &ref}, cleanup, nil
		}
		log.WithError(err).Errorf(
			"Failed to upload %s archive to bucket; falling back to direct file upload",
			archive.Kind)
		summary.UsedFallback = true
	}

	data, err := archive.Bytes()
	if err != nil {
		return Payload{}, noCleanup, errors.WithContext(err,
			fmt.Sprintf("read %s archive", archive.Kind))
	}
	return Payload{Bytes: data}, noCleanup, nil
}

func (s *Synchronizer) uploadToBucket(ctx context.Context, archive *packaging.Archive) (ObjectRef, error) {
	body, err := archive.Open()
	if err != nil {
		return ObjectRef{}, errors.StorageError{Op: "open archive", Err: err}
	}
	defer func() {
		if err := body.Close(); err != nil {
			log.WithError(err).Warn("Failed to close archive file")
		}
	}()

	key := s.stage.UploadBucket.Prefix + archive.FileName()
	return s.client.UploadObject(ctx, *s.stage.UploadBucket, key, body)
}

func closeArchive(archive *packaging.Archive) {
	if archive == nil {
		return
	}
	if err := archive.Close(); err != nil {
		log.WithError(err).Warnf("Failed to remove scratch %s archive", archive.Kind)
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
