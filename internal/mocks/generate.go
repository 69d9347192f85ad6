package mocks

//go:generate mockery --name Fetcher --srcpkg github.com/aevon-lab/nrega-dashboard/internal/syncer --output ./syncer --outpkg syncermocks --with-expecter
//go:generate mockery --name Store --srcpkg github.com/aevon-lab/nrega-dashboard/internal/syncer --output ./syncer --outpkg syncermocks --with-expecter
//go:generate mockery --name SnapshotStore --srcpkg github.com/aevon-lab/nrega-dashboard/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name Backfiller --srcpkg github.com/aevon-lab/nrega-dashboard/internal/projection --output ./projection --outpkg projectionmocks --with-expecter
//go:generate mockery --name Syncer --srcpkg github.com/aevon-lab/nrega-dashboard/internal/ingestion --output ./ingestion --outpkg ingestionmocks --with-expecter
