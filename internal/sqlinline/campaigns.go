package sqlinline

const campaignColumns = `c.id::text, c.title, c.description, c.temple_id::text, c.creator_id::text, c.category,
    c.goal_amount::text, c.raised_amount::text, c.currency, c.donor_count, c.status, c.featured,
    c.images, c.deadline, c.created_at, c.updated_at`

const campaignViewColumns = campaignColumns + `,
    t.id::text, t.name, t.description, t.address, t.city, t.state, t.pincode, t.deity, t.images,
    coalesce(t.admin_id::text, ''), t.verified, t.created_at, t.updated_at,
    u.name, u.email`

const QInsertCampaign = `--sql f10ce586-84e9-4ded-b5dd-4c5cf1d75b61
insert into campaigns (id, title, description, temple_id, creator_id, category, goal_amount, currency, status, featured, images, deadline, created_at, updated_at)
values ($1::uuid, $2::text, $3::text, $4::uuid, $5::uuid, $6::text, $7::text::numeric, $8::text, $9::text, $10::boolean, $11::text[], $12::timestamptz, now(), now())
returning created_at, updated_at;
`

const QInsertMilestone = `--sql 0ef6fd27-5f2d-48a7-a425-242aee42c81b
insert into campaign_milestones (id, campaign_id, amount, description, achieved, achieved_at)
values ($1::uuid, $2::uuid, $3::text::numeric, $4::text, $5::boolean, $6::timestamptz);
`

const QGetCampaign = `--sql 293ad253-70b4-403a-b659-9f3358a6c276
select ` + campaignColumns + `
from campaigns c
where c.id = $1::uuid;
`

const QGetCampaignView = `--sql 603655f8-4950-4292-9f68-72d31a84fc1d
select ` + campaignViewColumns + `
from campaigns c
join temples t on t.id = c.temple_id
join users u on u.id = c.creator_id
where c.id = $1::uuid;
`

// QListCampaignViews filters by status set ($1, empty means any), category,
// featured flag, inclusive goal bounds, an ILIKE search pattern over title,
// description and temple name, and creator.
const QListCampaignViews = `--sql 7ec6ad3b-10e8-47ca-863a-8438e65070c0
select ` + campaignViewColumns + `
from campaigns c
join temples t on t.id = c.temple_id
join users u on u.id = c.creator_id
where (cardinality($1::text[]) = 0 or c.status = any($1::text[]))
  and ($2::text = '' or c.category = $2::text)
  and ($3::boolean is null or c.featured = $3::boolean)
  and ($4::text is null or c.goal_amount >= $4::text::numeric)
  and ($5::text is null or c.goal_amount <= $5::text::numeric)
  and ($6::text = '' or c.title ilike $6::text or c.description ilike $6::text or t.name ilike $6::text)
  and ($7::text = '' or c.creator_id::text = $7::text)
order by c.created_at desc, c.id;
`

const QListCampaignUpdates = `--sql b6bc0d80-237a-4cac-9a3d-a5217be6c357
select id::text, title, description, images, created_at
from campaign_updates
where campaign_id = $1::uuid
order by created_at desc, id;
`

const QListCampaignMilestones = `--sql cca452b9-2fde-4d49-9670-b796f4f29683
select id::text, amount::text, description, achieved, achieved_at
from campaign_milestones
where campaign_id = $1::uuid
order by amount, id;
`

const QUpdateCampaign = `--sql 9c65cd75-61b1-4b2c-adca-04bad8a98f5b
update campaigns
set title = $2::text,
    description = $3::text,
    category = $4::text,
    goal_amount = $5::text::numeric,
    images = $6::text[],
    deadline = $7::timestamptz,
    updated_at = now()
where id = $1::uuid
returning updated_at;
`

const QSetCampaignStatus = `--sql 628a6fae-6e12-48a6-9e13-99af71f8b27f
update campaigns
set status = $3::text, updated_at = now()
where id = $1::uuid and status = $2::text;
`

const QSetCampaignFeatured = `--sql 10d655ab-169b-46a6-92a6-e82e0b65a1ad
update campaigns
set featured = $2::boolean, updated_at = now()
where id = $1::uuid;
`

const QPurgeUnfundedCampaignIntents = `--sql d3feb04f-791e-418e-adbb-fff0c55fb78d
delete from donations d
using campaigns c
where d.campaign_id = c.id
  and c.id = $1::uuid
  and c.raised_amount = 0
  and d.status <> 'completed';
`

const QDeleteUnfundedCampaign = `--sql 6e78821f-df1e-4a8b-ac6a-b3ef180eff2f
delete from campaigns
where id = $1::uuid and raised_amount = 0;
`

const QInsertCampaignUpdate = `--sql fbbbdfcd-190a-454e-a30a-25b0f71e6c2f
insert into campaign_updates (id, campaign_id, title, description, images, created_at)
values ($1::uuid, $2::uuid, $3::text, $4::text, $5::text[], now())
returning created_at;
`

const QCountCampaignsByCreator = `--sql 01df2ab2-a4f3-4622-aa41-02035bbca32a
select count(*)
from campaigns
where creator_id = $1::uuid;
`
