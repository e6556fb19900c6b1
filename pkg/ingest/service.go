// Package ingest walks the configured data directory and registers every
// comic archive it finds: the file itself, its embedded ComicInfo document,
// and the folder and series entities derived from both.
package ingest

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/longboxlabs/longbox/pkg/comicinfo"
	"github.com/longboxlabs/longbox/pkg/comics"
	"github.com/longboxlabs/longbox/pkg/config"
	"github.com/longboxlabs/longbox/pkg/errcodes"
	"github.com/longboxlabs/longbox/pkg/hashing"
	"github.com/longboxlabs/longbox/pkg/lookups"
	"github.com/longboxlabs/longbox/pkg/metadata"
	"github.com/longboxlabs/longbox/pkg/models"
	"github.com/longboxlabs/longbox/pkg/nameparse"
	"github.com/longboxlabs/longbox/pkg/scanner"
	"github.com/longboxlabs/longbox/pkg/series"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// RunSummary reports what one ingestion run did. Added counts only increment
// when a row was actually inserted, so a second run over an unchanged
// directory reports everything as skipped.
type RunSummary struct {
	TotalFiles         int64 `json:"totalFiles"`
	TotalFilesAdded    int64 `json:"totalFilesAdded"`
	TotalFilesSkipped  int64 `json:"totalFilesSkipped"`
	TotalFilesFailed   int64 `json:"totalFilesFailed"`
	TotalFoldersAdded  int64 `json:"totalFoldersAdded"`
	TotalSeriesAdded   int64 `json:"totalSeriesAdded"`
	TotalMappingsAdded int64 `json:"totalMappingsAdded"`
}

type runCounters struct {
	totalFiles         atomic.Int64
	totalFilesAdded    atomic.Int64
	totalFilesSkipped  atomic.Int64
	totalFilesFailed   atomic.Int64
	totalFoldersAdded  atomic.Int64
	totalSeriesAdded   atomic.Int64
	totalMappingsAdded atomic.Int64
}

func (c *runCounters) summary() *RunSummary {
	return &RunSummary{
		TotalFiles:         c.totalFiles.Load(),
		TotalFilesAdded:    c.totalFilesAdded.Load(),
		TotalFilesSkipped:  c.totalFilesSkipped.Load(),
		TotalFilesFailed:   c.totalFilesFailed.Load(),
		TotalFoldersAdded:  c.totalFoldersAdded.Load(),
		TotalSeriesAdded:   c.totalSeriesAdded.Load(),
		TotalMappingsAdded: c.totalMappingsAdded.Load(),
	}
}

type Service struct {
	config *config.Config

	comicService    *comics.Service
	lookupService   *lookups.Service
	seriesService   *series.Service
	metadataService *metadata.Service
}

func NewService(db *bun.DB, cfg *config.Config) *Service {
	return &Service{
		config: cfg,

		comicService:    comics.NewService(db),
		lookupService:   lookups.NewService(db),
		seriesService:   series.NewService(db),
		metadataService: metadata.NewService(db),
	}
}

// Run scans the data directory and processes every archive through a pool of
// WorkerProcesses goroutines. Setup failures (missing config, missing
// directory, nothing to ingest) abort the run. A file only counts as failed
// when it errors before its record is persisted; later steps log and move on,
// so every file lands in exactly one of added, skipped, or failed.
func (svc *Service) Run(ctx context.Context) (*RunSummary, error) {
	log := logger.FromContext(ctx)

	if svc.config.DataDirectory == "" {
		return nil, errors.New("missing required config: DATA_DIRECTORY (data_directory)")
	}

	result, err := scanner.Scan(ctx, svc.config.DataDirectory)
	if err != nil {
		return nil, err
	}
	if len(result.Files) == 0 {
		return nil, errcodes.NothingToIngest()
	}

	counters := &runCounters{}
	counters.totalFiles.Store(int64(len(result.Files)))

	workers := svc.config.WorkerProcesses
	if workers < 1 {
		workers = 1
	}

	queue := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range queue {
				if ctx.Err() != nil {
					continue
				}

				flog := log
				if id, err := uuid.NewRandom(); err == nil {
					flog = flog.ID(id.String())
				}
				flog = flog.Root(logger.Data{"path": path})
				fctx := flog.WithContext(ctx)

				if err := svc.processFile(fctx, path, counters); err != nil {
					flog.Err(err).Error("ingest file error")
					counters.totalFilesFailed.Add(1)
				}
			}
		}()
	}

	for _, path := range result.Files {
		select {
		case <-ctx.Done():
		case queue <- path:
			continue
		}
		break
	}
	close(queue)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	summary := counters.summary()
	log.Info("ingestion run complete", logger.Data{
		"total_files":   summary.TotalFiles,
		"files_added":   summary.TotalFilesAdded,
		"files_skipped": summary.TotalFilesSkipped,
		"files_failed":  summary.TotalFilesFailed,
	})
	return summary, nil
}

func (svc *Service) processFile(ctx context.Context, path string, counters *runCounters) error {
	log := logger.FromContext(ctx)

	fileHash, err := hashing.FileHash(path)
	if err != nil {
		return err
	}

	// Content hash is the identity. A file seen before, at this path or any
	// other, is skipped without reopening the archive.
	_, err = svc.comicService.RetrieveFile(ctx, comics.RetrieveFileOptions{FileHash: &fileHash})
	if err == nil {
		counters.totalFilesSkipped.Add(1)
		return nil
	}
	if !errors.Is(err, errcodes.NotFound("Comic file")) {
		return err
	}

	// A known path with a new hash means the file was edited in place. Keep
	// the existing row, refresh its hash, and re-read the embedded document
	// so the metadata upsert picks up the changes.
	existing, err := svc.comicService.RetrieveFile(ctx, comics.RetrieveFileOptions{FilePath: &path})
	if err == nil {
		if err := svc.comicService.UpdateFileHash(ctx, existing.ID, fileHash); err != nil {
			return err
		}
		counters.totalFilesSkipped.Add(1)
		log.Info("file content changed")
		svc.enrichFile(ctx, existing, counters)
		return nil
	}
	if !errors.Is(err, errcodes.NotFound("Comic file")) {
		return err
	}

	file, created, err := svc.comicService.CreateFile(ctx, &models.ComicFile{
		FileName: filepath.Base(path),
		FilePath: path,
		FileHash: fileHash,
	})
	if err != nil {
		return err
	}
	if !created {
		// Another worker hashed identical bytes first.
		counters.totalFilesSkipped.Add(1)
		return nil
	}
	counters.totalFilesAdded.Add(1)
	log.Info("file added")

	svc.enrichFile(ctx, file, counters)
	return nil
}

// enrichFile runs the post-registration steps. The file record is already the
// file's terminal state, so failures here are logged rather than counted
// against the file.
func (svc *Service) enrichFile(ctx context.Context, file *models.ComicFile, counters *runCounters) {
	log := logger.FromContext(ctx)

	md, err := svc.ingestMetadata(ctx, file)
	if err != nil {
		log.Err(err).Warn("metadata ingestion failed")
		md = nil
	}
	if err := svc.ingestSeries(ctx, file, md, counters); err != nil {
		log.Err(err).Warn("series ingestion failed")
	}
}

// ingestMetadata extracts, normalizes, and persists the embedded document,
// resolving every referenced entity along the way. Archives without a
// document return (nil, nil).
func (svc *Service) ingestMetadata(ctx context.Context, file *models.ComicFile) (*comicinfo.Metadata, error) {
	raw, err := comicinfo.Extract(file.FilePath)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	log := logger.FromContext(ctx)

	doc, err := comicinfo.Decode(raw)
	if err != nil {
		// A document that doesn't parse is the same as no document.
		log.Err(err).Warn("comic info document is malformed")
		return nil, nil
	}
	md := comicinfo.Normalize(doc)

	row := &models.Metadata{
		ComicFileID:          file.ID,
		SeriesName:           md.SeriesName,
		Title:                md.Title,
		IssueNumber:          md.IssueNumber,
		Count:                md.Count,
		Volume:               md.Volume,
		AlternateSeriesName:  md.AlternateSeriesName,
		AlternateIssueNumber: md.AlternateIssueNumber,
		AlternateCount:       md.AlternateCount,
		Summary:              md.Summary,
		Notes:                md.Notes,
		PublicationDate:      md.PublicationDate,
		Web:                  md.Web,
		PageCount:            md.PageCount,
		ScanInformation:      md.ScanInformation,
		BlackAndWhite:        md.BlackAndWhite,
		AgeRating:            md.AgeRating,
		Rating:               md.Rating,
		MainCharacterOrTeam:  md.MainCharacterOrTeam,
		Review:               md.Review,
	}

	// Each direct reference resolves independently: a failure leaves that one
	// column NULL and the rest of the row intact.
	if md.Publisher != nil {
		if publisher, _, err := svc.lookupService.FindOrCreate(ctx, lookups.Publishers, *md.Publisher); err != nil {
			log.Err(err).Warn("publisher resolution failed")
		} else {
			row.PublisherID = &publisher.ID
		}
	}
	if md.Imprint != nil {
		if imprint, _, err := svc.lookupService.FindOrCreate(ctx, lookups.Imprints, *md.Imprint); err != nil {
			log.Err(err).Warn("imprint resolution failed")
		} else {
			row.ImprintID = &imprint.ID
		}
	}
	if md.Format != nil {
		if format, _, err := svc.lookupService.FindOrCreate(ctx, lookups.Formats, *md.Format); err != nil {
			log.Err(err).Warn("format resolution failed")
		} else {
			row.FormatID = &format.ID
		}
	}
	if md.LanguageISO != nil {
		if lang, _, err := svc.lookupService.FindOrCreateLanguage(ctx, *md.LanguageISO); err != nil {
			log.Err(err).Warn("language resolution failed")
		} else {
			row.LanguageID = &lang.ID
		}
	}
	if md.Manga != nil {
		if setting, _, err := svc.lookupService.FindOrCreate(ctx, lookups.MangaSettings, *md.Manga); err != nil {
			log.Err(err).Warn("manga setting resolution failed")
		} else {
			row.MangaSettingID = &setting.ID
		}
	}

	if err := svc.metadataService.Upsert(ctx, row); err != nil {
		return nil, err
	}
	if row.ID == 0 {
		stored, err := svc.metadataService.RetrieveByFileID(ctx, file.ID)
		if err != nil {
			return nil, err
		}
		row.ID = stored.ID
	}

	for _, credit := range md.Credits() {
		if credit.Names == nil {
			continue
		}
		for _, name := range comicinfo.SplitList(*credit.Names) {
			role, _, err := svc.lookupService.FindOrCreateRole(ctx, credit.RoleKind, name)
			if err != nil {
				log.Err(err).Warn("role resolution failed", logger.Data{"role_kind": credit.RoleKind, "name": name})
				continue
			}
			if _, err := svc.metadataService.AttachRole(ctx, row.ID, role.ID); err != nil {
				log.Err(err).Warn("role attach failed", logger.Data{"role_kind": credit.RoleKind, "name": name})
			}
		}
	}

	listFields := []struct {
		kind  lookups.Kind
		value *string
	}{
		{lookups.Genres, md.Genre},
		{lookups.Characters, md.Characters},
		{lookups.Teams, md.Teams},
		{lookups.Locations, md.Locations},
		{lookups.StoryArcs, md.StoryArc},
		{lookups.SeriesGroups, md.SeriesGroup},
	}
	for _, field := range listFields {
		if field.value == nil {
			continue
		}
		for _, name := range comicinfo.SplitList(*field.value) {
			entity, _, err := svc.lookupService.FindOrCreate(ctx, field.kind, name)
			if err != nil {
				log.Err(err).Warn("lookup resolution failed", logger.Data{"kind": field.kind.Label, "name": name})
				continue
			}
			if _, err := svc.metadataService.AttachLookup(ctx, field.kind, row.ID, entity.ID); err != nil {
				log.Err(err).Warn("lookup attach failed", logger.Data{"kind": field.kind.Label, "name": name})
			}
		}
	}

	return md, nil
}

// ingestSeries resolves the file's folder and series and writes both
// mappings. The embedded series name is preferred; the folder segment is the
// fallback. The year always comes from the folder segment.
func (svc *Service) ingestSeries(ctx context.Context, file *models.ComicFile, md *comicinfo.Metadata, counters *runCounters) error {
	folderPath := filepath.Dir(file.FilePath)

	folder, created, err := svc.comicService.FindOrCreateFolder(ctx, folderPath, hashing.FolderHash(folderPath))
	if err != nil {
		return err
	}
	if created {
		counters.totalFoldersAdded.Add(1)
	}

	segment := filepath.Base(folderPath)
	name := ""
	if md != nil && md.SeriesName != nil {
		name = *md.SeriesName
	}
	if name == "" {
		name = nameparse.SeriesName(segment)
	}
	year := nameparse.Year(segment)

	resolved, created, err := svc.seriesService.FindOrCreateSeries(ctx, name, year)
	if err != nil {
		return err
	}
	if created {
		counters.totalSeriesAdded.Add(1)
	}

	created, err = svc.comicService.MapFileToSeries(ctx, file.ID, resolved.ID)
	if err != nil {
		return err
	}
	if created {
		counters.totalMappingsAdded.Add(1)
	}

	created, err = svc.comicService.MapFolderToSeries(ctx, folder.ID, resolved.ID)
	if err != nil {
		return err
	}
	if created {
		counters.totalMappingsAdded.Add(1)
	}

	return nil
}
