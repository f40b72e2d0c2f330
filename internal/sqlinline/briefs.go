package sqlinline

const QUpsertBrief = `--sql 3f7c1c2e-8a4d-4b7e-9c51-2f0d6e8a1b47
insert into creative_briefs(id, user_id, payload, status, created_at)
values ($1::text, $2::text, $3::jsonb, $4::text, now())
on conflict (id) do update
set payload = excluded.payload,
    status  = excluded.status;
`

const QSelectBriefByID = `--sql 7b92e6d4-1f3a-4c8b-a2e9-5d417c3f9b02
select id, user_id, payload, status, created_at
from creative_briefs
where id = $1::text;
`
