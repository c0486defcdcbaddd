package swagger

// @Tag.name Meta
// @Tag.description Operational probes, version and metrics.

// @Tag.name GitHub Hooks
// @Tag.description Push webhook ingestion and word counting.

// @Tag.name Commits
// @Tag.description Read access to stored per-commit word counts.
