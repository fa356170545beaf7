package sqlinline

const QInsertUsageEvent = `--sql 7f3c1b6a-94d2-4e0b-bb1d-5a6f0c2d8e41
insert into usage_events(id, user_id, project_id, event_type, success, latency_ms, created_at, properties)
values (gen_random_uuid(), $1::uuid, $2::uuid, $3::text, $4::boolean, $5::int, now(), coalesce($6::jsonb, '{}'::jsonb));
`
