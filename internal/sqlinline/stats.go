package sqlinline

const QStatsSummary = `--sql 3d9e8a02-61c4-4f7b-9a55-fd2b7c4e9a10
select
    (select count(*) from users)                                                           as total_users,
    (select count(*) from projects)                                                        as total_projects,
    (select count(*) from projects where status = 'ready')                                 as projects_ready,
    (select count(*) from projects where status = 'failed')                                as projects_failed,
    (select count(*) from usage_events where event_type = 'PROJECT_GENERATE' and success)  as generations_ok,
    (select count(*) from usage_events where event_type = 'PROJECT_GENERATE' and not success) as generations_failed,
    (select count(*) from projects where created_at > now() - interval '24 hours')         as projects_last_24h;
`
