package sqlinline

const donationColumns = `d.id::text, coalesce(d.donor_id::text, ''), d.campaign_id::text, d.amount::text, d.currency, d.status,
    d.payment_method, d.anonymous, d.message, coalesce(d.gateway_order_id, ''), coalesce(d.gateway_payment_id, ''),
    coalesce(d.gateway_signature, ''), d.receipt_generated, d.tax_deductible, d.donor_country, d.created_at, d.updated_at`

const donationViewColumns = donationColumns + `,
    c.title, coalesce(c.images[1], ''), coalesce(u.name, ''), coalesce(u.email, '')`

const QInsertPendingDonation = `--sql 7a32a94c-ba30-4800-b325-416588ccd7bb
insert into donations (id, donor_id, campaign_id, amount, currency, status, payment_method, anonymous, message,
                       gateway_order_id, tax_deductible, donor_country, created_at, updated_at)
values ($1::uuid, nullif($2::text, '')::uuid, $3::uuid, $4::text::numeric, $5::text, 'pending', $6::text, $7::boolean, $8::text,
        nullif($9::text, ''), $10::boolean, $11::text, now(), now())
returning created_at, updated_at;
`

const QGetDonation = `--sql 5ba626b0-cb6a-4164-a55c-594750b55a30
select ` + donationColumns + `
from donations d
where d.id = $1::uuid;
`

const QGetDonationByOrderID = `--sql 47fabc58-22d3-4e3b-97d6-19ded746aa8a
select ` + donationColumns + `
from donations d
where d.gateway_order_id = $1::text;
`

const QGetDonationByPaymentID = `--sql 4538d048-109b-4d39-9018-791c8fb816a0
select ` + donationColumns + `
from donations d
where d.gateway_payment_id = $1::text;
`

const QLockDonationByOrderID = `--sql d89bc368-77c0-4a5f-8d7c-6218fb0e8ef8
select ` + donationColumns + `
from donations d
where d.gateway_order_id = $1::text
for update;
`

const QCompletePendingDonation = `--sql ca7993aa-daf4-440d-b36e-80775c7cf4d9
update donations
set status = 'completed',
    donor_id = $2::uuid,
    gateway_payment_id = nullif($3::text, ''),
    gateway_signature = nullif($4::text, ''),
    anonymous = $5::boolean,
    message = $6::text,
    donor_country = $7::text,
    updated_at = now()
where id = $1::uuid and status = 'pending'
returning created_at, updated_at;
`

const QInsertCompletedDonation = `--sql a41fe989-cb27-41e5-af2d-9e3f467f111d
insert into donations (id, donor_id, campaign_id, amount, currency, status, payment_method, anonymous, message,
                       gateway_order_id, gateway_payment_id, gateway_signature, tax_deductible, donor_country, created_at, updated_at)
values ($1::uuid, $2::uuid, $3::uuid, $4::text::numeric, $5::text, 'completed', $6::text, $7::boolean, $8::text,
        nullif($9::text, ''), nullif($10::text, ''), nullif($11::text, ''), $12::boolean, $13::text, now(), now())
on conflict do nothing
returning created_at, updated_at;
`

const QListDonationsByDonor = `--sql 9b9b75e7-f5b8-428d-b177-4bd944dc65d1
select ` + donationViewColumns + `
from donations d
join campaigns c on c.id = d.campaign_id
left join users u on u.id = d.donor_id
where d.donor_id = $1::uuid and d.status = 'completed'
order by d.created_at desc, d.id
limit $2::int offset $3::int;
`

const QCountDonationsByDonor = `--sql 1d338f44-ea2f-4b1e-922d-4dd797b77d41
select count(*)
from donations
where donor_id = $1::uuid and status = 'completed';
`

const QListDonationsByCampaign = `--sql 3bf248a3-7b12-46d5-8c18-023858c7eb12
select ` + donationViewColumns + `
from donations d
join campaigns c on c.id = d.campaign_id
left join users u on u.id = d.donor_id
where d.campaign_id = $1::uuid and d.status = 'completed'
order by d.created_at desc, d.id
limit $2::int;
`

const QListUnreceiptedDonations = `--sql 44f3a6ea-4a4e-43a8-8ffd-3f2710e19bd5
select ` + donationViewColumns + `
from donations d
join campaigns c on c.id = d.campaign_id
left join users u on u.id = d.donor_id
where d.status = 'completed' and d.receipt_generated = false
order by d.receipt_failed_at nulls first, d.created_at, d.id
limit $1::int;
`

const QMarkReceiptGenerated = `--sql 0dc055b0-718f-4825-a4f4-cc5dcb11c3f3
update donations
set receipt_generated = true, receipt_failed_at = null, updated_at = now()
where id = $1::uuid;
`

const QMarkReceiptFailed = `--sql d1e27768-2424-4052-8c28-8e4c0a670c05
update donations
set receipt_failed_at = clock_timestamp()
where id = $1::uuid and receipt_generated = false;
`
