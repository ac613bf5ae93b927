package sqlinline

const templeColumns = `id::text, name, description, address, city, state, pincode, deity, images, coalesce(admin_id::text, ''), verified, created_at, updated_at`

const QFindOrCreateTemple = `--sql 16448142-5b6d-4eb5-90fc-3f6573bddece
insert into temples (id, name, description, address, city, state, pincode, deity, images, admin_id, created_at, updated_at)
values ($1::uuid, $2::text, $3::text, $4::text, $5::text, $6::text, $7::text, $8::text, $9::text[], nullif($10::text, '')::uuid, now(), now())
on conflict (name, address) do update set updated_at = temples.updated_at
returning ` + templeColumns + `;
`

const QGetTemple = `--sql f21d3969-931a-41fb-a246-0183836206e9
select ` + templeColumns + `
from temples
where id = $1::uuid;
`
