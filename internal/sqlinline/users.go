package sqlinline

const userColumns = `id::text, name, email, password_hash, role, verified, total_donated::text, donation_count, created_at, updated_at`

const QInsertUser = `--sql eed59b69-0d74-4a7e-89ff-574b04d58fc8
insert into users (id, name, email, password_hash, role, verified, created_at, updated_at)
values ($1::uuid, $2::text, lower($3::text), $4::text, $5::text, $6::boolean, now(), now())
returning created_at, updated_at;
`

const QGetUserByID = `--sql 5e8798d4-d7f6-47ed-bb5f-c32e450cc527
select ` + userColumns + `
from users
where id = $1::uuid;
`

const QGetUserByEmail = `--sql 3e2157a1-940d-469c-b4c3-43458552f739
select ` + userColumns + `
from users
where email = lower($1::text);
`

const QFindOrCreateUserByEmail = `--sql 017ee252-7602-47c6-b0de-dd2e71a8aaee
insert into users (id, name, email, role, created_at, updated_at)
values ($1::uuid, $2::text, lower($3::text), 'donor', now(), now())
on conflict (email) do update set updated_at = users.updated_at
returning ` + userColumns + `;
`

const QSetUserRole = `--sql b96457b9-17aa-48e5-9363-26f848027300
update users
set role = $2::text, updated_at = now()
where id = $1::uuid;
`

const QIncrementUserTotals = `--sql 12759f86-ee4d-4b47-bfb8-eaeaaa9ed443
update users
set total_donated = total_donated + $2::text::numeric,
    donation_count = donation_count + 1,
    updated_at = now()
where id = $1::uuid;
`
